package main

import (
	"bufio"
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/context"
	"golang.org/x/sync/errgroup"
)

type namedReader interface {
	io.ReadCloser
	Name() string
}

var (
	in  namedReader    = os.Stdin
	out io.WriteCloser = os.Stdout

	timeout = flag.Duration("timeout", 5*time.Second, "time limit for generation")
	fmtCmd  = flag.String("fmt", "goimports", "formatter to pipe output through")
)

func parseFlags() {
	flag.Parse()

	args := flag.Args()

	if len(args) > 0 {
		name := args[0]
		f, err := os.Open(name)
		if err != nil {
			log.Fatalf("failed to open %v: %v", name, err)
		}
		args = args[1:]
		in = f
	}

	if len(args) > 0 {
		name := args[0]
		f, err := os.Create(name)
		if err != nil {
			log.Fatalf("failed to create %v: %v", name, err)
		}
		out = f
	}
}

func main() {
	parseFlags()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)

	// src feeds the formatter, whose output goes to the final destination
	src, dst := io.Pipe()
	eg.Go(func() error {
		defer out.Close()
		cmd := exec.CommandContext(ctx, *fmtCmd)
		cmd.Stdin = src
		cmd.Stdout = out
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("%v failed: %w", *fmtCmd, err)
		}
		return nil
	})

	eg.Go(func() (rerr error) {
		defer func() {
			if cerr := in.Close(); rerr == nil {
				rerr = cerr
			}
			dst.CloseWithError(rerr)
		}()
		return generate(ctx, dst)
	})

	if err := eg.Wait(); err != nil {
		log.Fatalln(err)
	}
}

// builderMethod matches vmTestCase builder methods that take arguments; each
// one gets a wrapper usable with vmTestCase.apply.
var builderMethod = regexp.MustCompile(`^func \(vmt vmTestCase\) (expect|with)(\w+)\((.+?)\) vmTestCase \{`)

type param struct{ name, typ string }

// parseParams splits a parameter list, sharing types across grouped names
// like "execute, compile string".
func parseParams(list string) []param {
	parts := strings.Split(list, ",")
	params := make([]param, len(parts))
	typ := ""
	for i := len(parts) - 1; i >= 0; i-- {
		fields := strings.Fields(parts[i])
		params[i].name = fields[0]
		if len(fields) > 1 {
			typ = strings.Join(fields[1:], " ")
		}
		params[i].typ = typ
	}
	return params
}

func generate(ctx context.Context, w io.Writer) error {
	var buf bytes.Buffer
	buf.Grow(1024)

	fmt.Fprintf(&buf, "package main\n\n// @generated from %v\n\n", in.Name())
	if args := flag.Args(); len(args) >= 2 {
		fmt.Fprintf(&buf, "//go:generate go run scripts/gen_vm_expects.go -- %v\n\n", strings.Join(args, " "))
	}

	sc := bufio.NewScanner(in)
	for sc.Scan() {
		match := builderMethod.FindStringSubmatch(sc.Text())
		if len(match) == 0 {
			continue
		}
		base, what, list := match[1], match[2], match[3]

		params := parseParams(list)
		args := make([]string, len(params))
		for i, p := range params {
			args[i] = p.name
			if strings.HasPrefix(p.typ, "...") {
				args[i] += "..."
			}
		}

		fmt.Fprintf(&buf, "func %vVM%v(%v) func(vmTestCase) vmTestCase {\n", base, what, list)
		fmt.Fprintf(&buf, "\treturn func(vmt vmTestCase) vmTestCase {\n")
		fmt.Fprintf(&buf, "\t\treturn vmt.%v%v(%v)\n", base, what, strings.Join(args, ", "))
		fmt.Fprintf(&buf, "\t}\n}\n\n")

		if _, err := buf.WriteTo(w); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}
