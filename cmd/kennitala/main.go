// Package main provides a CLI for validating, formatting and generating
// Icelandic identity codes. Generated codes are checksum-valid test data and
// are not issued by any registry.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"kennitala/pkg/kennitala"
	"kennitala/pkg/kennitala/generator"
)

type codeOutput struct {
	Kennitala  string `json:"kennitala"`
	Hyphenated string `json:"hyphenated,omitempty"`
	Valid      bool   `json:"valid"`
	Kind       string `json:"kind,omitempty"`
	Birthdate  string `json:"birthdate,omitempty"`
	Age        *int   `json:"age,omitempty"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, time.Now))
}

func run(args []string, stdout, stderr io.Writer, now func() time.Time) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 2
	}

	cli := &cli{
		out:    stdout,
		errOut: stderr,
		now:    now,
		gen:    generator.New(generator.WithClock(now)),
	}

	switch args[0] {
	case "validate":
		return cli.validate(args[1:])
	case "format":
		return cli.format(args[1:])
	case "generate":
		return cli.generate(args[1:])
	case "random":
		return cli.random(args[1:])
	case "age":
		return cli.age(args[1:])
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printUsage(stderr)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `kennitala - validate, format and generate Icelandic identity codes

Usage:
  kennitala <command> [flags] [args]

Commands:
  validate  Check one or more codes; exits 1 if any is invalid
  format    Print the DDMMYY-RRCM form of a code
  generate  Generate a code for a birthdate or founding date
  random    Generate codes for random birthdates since 1800
  age       Print the holder's age today

Examples:
  kennitala validate 140543-3229 5810080150
  kennitala format 1405433229
  kennitala generate -day 14 -month 5 -year 1943
  kennitala generate -day 18 -month 10 -year 2008 -company
  kennitala random -n 5 -json
  kennitala age 140543-3229

Use "kennitala <command> -h" for more information about a command.`)
}

type cli struct {
	out    io.Writer
	errOut io.Writer
	now    func() time.Time
	gen    *generator.Generator
}

func (c *cli) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.errOut)
	return fs
}

func (c *cli) validate(args []string) int {
	fs := c.flagSet("validate")
	jsonOutput := fs.Bool("json", false, "Output as JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(c.errOut, "validate: at least one code is required")
		return 2
	}

	results := make([]codeOutput, 0, fs.NArg())
	allValid := true
	for _, raw := range fs.Args() {
		out := c.describe(raw)
		allValid = allValid && out.Valid
		results = append(results, out)
	}

	if *jsonOutput {
		c.printJSON(results)
	} else {
		for _, r := range results {
			status := "invalid"
			if r.Valid {
				status = "valid " + r.Kind
			}
			fmt.Fprintf(c.out, "%-12s %s\n", r.Kennitala, status)
		}
	}

	if !allValid {
		return 1
	}
	return 0
}

func (c *cli) format(args []string) int {
	fs := c.flagSet("format")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(c.errOut, "format: exactly one code is required")
		return 2
	}

	hyphenated, err := kennitala.ToHyphenated(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(c.errOut, "format: %v\n", err)
		return 1
	}
	fmt.Fprintln(c.out, hyphenated)
	return 0
}

func (c *cli) generate(args []string) int {
	fs := c.flagSet("generate")
	day := fs.Int("day", 0, "Day of month (1-31)")
	month := fs.Int("month", 0, "Month (1-12)")
	year := fs.Int("year", 0, "Four-digit year")
	company := fs.Bool("company", false, "Generate an organization code for a founding date")
	jsonOutput := fs.Bool("json", false, "Output as JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var (
		code string
		err  error
	)
	if *company {
		code, err = c.gen.CompanyFromDate(*day, *month, *year)
	} else {
		code, err = c.gen.FromBirthday(*day, *month, *year)
	}
	if err != nil {
		fmt.Fprintf(c.errOut, "generate: %v\n", err)
		return 1
	}

	c.printCodes([]string{code}, *jsonOutput)
	return 0
}

func (c *cli) random(args []string) int {
	fs := c.flagSet("random")
	n := fs.Int("n", 1, "Number of codes to generate")
	jsonOutput := fs.Bool("json", false, "Output as JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *n < 1 {
		fmt.Fprintln(c.errOut, "random: -n must be positive")
		return 2
	}

	codes := make([]string, 0, *n)
	for range *n {
		code, err := c.gen.Random()
		if err != nil {
			fmt.Fprintf(c.errOut, "random: %v\n", err)
			return 1
		}
		codes = append(codes, code)
	}

	c.printCodes(codes, *jsonOutput)
	return 0
}

func (c *cli) age(args []string) int {
	fs := c.flagSet("age")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(c.errOut, "age: exactly one code is required")
		return 2
	}

	k, err := kennitala.Parse(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(c.errOut, "age: %v\n", err)
		return 1
	}
	fmt.Fprintln(c.out, k.AgeAt(c.now()))
	return 0
}

func (c *cli) printCodes(codes []string, jsonOutput bool) {
	if jsonOutput {
		results := make([]codeOutput, 0, len(codes))
		for _, code := range codes {
			results = append(results, c.describe(code))
		}
		c.printJSON(results)
		return
	}
	for _, code := range codes {
		hyphenated, err := kennitala.ToHyphenated(code)
		if err != nil {
			hyphenated = code
		}
		fmt.Fprintln(c.out, hyphenated)
	}
}

func (c *cli) printJSON(v any) {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(c.errOut, "Error encoding JSON: %v\n", err)
	}
}

func (c *cli) describe(raw string) codeOutput {
	out := codeOutput{Kennitala: kennitala.Clean(raw)}
	k, err := kennitala.Parse(raw)
	if err != nil {
		return out
	}
	age := k.AgeAt(c.now())
	out.Hyphenated = k.Hyphenated()
	out.Valid = true
	out.Kind = string(k.Kind())
	out.Birthdate = k.Birthdate().String()
	out.Age = &age
	return out
}
