package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"kennitala/internal/kennitala/metrics"
	"kennitala/internal/kennitala/models"
	"kennitala/internal/kennitala/tracer"
	dErrors "kennitala/pkg/domain-errors"
	"kennitala/pkg/kennitala"
	"kennitala/pkg/kennitala/codec"
	"kennitala/pkg/kennitala/generator"
	"kennitala/pkg/platform/middleware/requesttime"
	"kennitala/pkg/platform/privacy"
)

const (
	DefaultMaxBatchSize = 100
	DefaultWorkers      = 8

	// MaxYear is the last year a single-digit century marker can encode.
	MaxYear = 2099
)

// Service inspects and generates identity codes.
type Service struct {
	gen          *generator.Generator
	metrics      *metrics.Metrics
	tracer       tracer.Tracer
	logger       *slog.Logger
	maxBatchSize int
	workers      int
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithTracer sets the tracer used for service spans.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithGenerator replaces the default generator. The generator's Rand must be
// safe for concurrent use when GenerateRandom runs more than one worker.
func WithGenerator(g *generator.Generator) Option {
	return func(s *Service) {
		s.gen = g
	}
}

// WithMaxBatchSize bounds the count accepted by GenerateRandom.
func WithMaxBatchSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxBatchSize = n
		}
	}
}

// WithWorkers sets how many codes GenerateRandom produces concurrently.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// New creates a kennitala service.
func New(opts ...Option) *Service {
	s := &Service{
		tracer:       tracer.NewNoop(),
		logger:       slog.Default(),
		maxBatchSize: DefaultMaxBatchSize,
		workers:      DefaultWorkers,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.gen == nil {
		var genOpts []generator.Option
		if s.metrics != nil {
			genOpts = append(genOpts, generator.WithRetryObserver(s.metrics.IncrementChecksumRetry))
		}
		s.gen = generator.New(genOpts...)
	}
	return s
}

// MaxBatchSize returns the largest count GenerateRandom accepts.
func (s *Service) MaxBatchSize() int {
	return s.maxBatchSize
}

// Inspect cleans, validates and describes raw. Ages are computed at the
// request-scoped time so one request sees one "today".
func (s *Service) Inspect(ctx context.Context, raw string) (*models.Inspection, error) {
	clean := kennitala.Clean(raw)
	ctx, span := s.tracer.Start(ctx, tracer.SpanInspect,
		tracer.String(tracer.AttrKennitalaHash, privacy.HashKennitala(clean)),
	)
	defer span.End(nil)

	result := &models.Inspection{
		Cleaned:     clean,
		InspectedAt: requesttime.Now(ctx),
	}

	k, err := kennitala.Parse(clean)
	if err != nil {
		span.SetAttributes(tracer.Bool(tracer.AttrValid, false))
		if s.metrics != nil {
			s.metrics.IncrementInspection(false, "")
		}
		return result, nil
	}

	result.Valid = true
	result.Hyphenated = k.Hyphenated()
	result.Kind = k.Kind()
	result.Age = k.AgeAt(result.InspectedAt)
	if k.Kind() == kennitala.KindPerson {
		result.Birthdate = k.Birthdate().String()
	}

	span.SetAttributes(
		tracer.Bool(tracer.AttrValid, true),
		tracer.String(tracer.AttrKind, string(result.Kind)),
	)
	if s.metrics != nil {
		s.metrics.IncrementInspection(true, string(result.Kind))
	}
	return result, nil
}

// Generate creates one code for the requested date and kind.
func (s *Service) Generate(ctx context.Context, req models.GenerateRequest) (*models.Generated, error) {
	kind, err := kennitala.ParseKind(string(req.Kind))
	if err != nil {
		return nil, err
	}
	if req.Year < generator.MinYear || req.Year > MaxYear {
		return nil, dErrors.New(dErrors.CodeOutOfRange, "year must be between 1800 and 2099")
	}

	_, span := s.tracer.Start(ctx, tracer.SpanGenerate, tracer.String(tracer.AttrKind, string(kind)))
	start := time.Now()

	var code string
	if kind == kennitala.KindCompany {
		code, err = s.gen.CompanyFromDate(req.Day, req.Month, req.Year)
	} else {
		code, err = s.gen.FromBirthday(req.Day, req.Month, req.Year)
	}
	span.End(err)
	if err != nil {
		s.logger.WarnContext(ctx, "kennitala generation failed",
			"kind", kind,
			"error", err,
		)
		return nil, err
	}

	generated, err := toGenerated(code, kind, codec.Birthdate{Day: req.Day, Month: req.Month, Year: req.Year})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.ObserveGenerate(metrics.SourceBirthday, start)
		s.metrics.IncrementGenerated(metrics.SourceBirthday, string(kind), 1)
	}
	return generated, nil
}

// GenerateRandom creates count personal codes for random birthdates.
// Codes are produced concurrently; the result order carries no meaning.
func (s *Service) GenerateRandom(ctx context.Context, count int) ([]models.Generated, error) {
	if count < 1 || count > s.maxBatchSize {
		return nil, dErrors.New(dErrors.CodeOutOfRange, "count must be between 1 and the maximum batch size")
	}

	ctx, span := s.tracer.Start(ctx, tracer.SpanGenerateRandom,
		tracer.Int(tracer.AttrCount, count),
		tracer.Int(tracer.AttrWorkers, s.workers),
	)
	start := time.Now()

	results := make([]models.Generated, count)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i := range count {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return dErrors.Wrap(err, dErrors.CodeTimeout, "random generation cancelled")
			}
			code, err := s.gen.Random()
			if err != nil {
				return err
			}
			bd, err := codec.DecodeBirthdate(code)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "decode generated code")
			}
			generated, err := toGenerated(code, kennitala.KindPerson, bd)
			if err != nil {
				return err
			}
			results[i] = *generated
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.End(err)
		s.logger.ErrorContext(ctx, "random kennitala batch failed",
			"count", count,
			"error", err,
		)
		return nil, err
	}

	span.AddEvent(tracer.EventCodeGenerated, tracer.Int(tracer.AttrCount, count))
	span.End(nil)
	if s.metrics != nil {
		s.metrics.ObserveGenerate(metrics.SourceRandom, start)
		s.metrics.IncrementGenerated(metrics.SourceRandom, string(kennitala.KindPerson), count)
	}
	return results, nil
}

func toGenerated(code string, kind kennitala.Kind, bd codec.Birthdate) (*models.Generated, error) {
	hyphenated, err := kennitala.ToHyphenated(code)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "format generated code")
	}
	return &models.Generated{
		Kennitala:  code,
		Hyphenated: hyphenated,
		Kind:       kind,
		Birthdate:  bd.String(),
	}, nil
}
