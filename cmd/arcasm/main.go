package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/wippyai/arcboot/asm"
	"github.com/wippyai/arcboot/errors"
	"github.com/wippyai/arcboot/interp"
)

func main() {
	var (
		output   = flag.String("o", "", "Write the program image to this file")
		hexDump  = flag.Bool("hex", false, "Print the assembled bytes as hex")
		disasm   = flag.String("d", "", "Disassemble a program image and print a listing")
		asSource = flag.Bool("source", false, "With -d, print reassemblable source instead of a listing")
	)
	flag.Parse()

	if *disasm == "" && flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: arcasm [-o out.arc] [-hex] <source.s>")
		fmt.Fprintln(os.Stderr, "       arcasm -d <program.arc> [-source]")
		os.Exit(1)
	}

	var err error
	if *disasm != "" {
		err = disassemble(os.Stdout, *disasm, *asSource)
	} else {
		err = assemble(os.Stdout, flag.Arg(0), *output, *hexDump)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func assemble(w io.Writer, srcPath, outPath string, hex bool) error {
	src, err := os.ReadFile(srcPath)
	if err != nil {
		return errors.Load(srcPath, "read source", err)
	}

	prog, err := asm.Assemble(srcPath, string(src))
	if err != nil {
		return err
	}

	if outPath == "" && !hex {
		outPath = strings.TrimSuffix(srcPath, ".s") + ".arc"
	}
	if outPath != "" {
		if err := os.WriteFile(outPath, prog, 0o644); err != nil {
			return fmt.Errorf("write program: %w", err)
		}
		fmt.Fprintf(w, "%s: %d bytes\n", outPath, len(prog))
	}
	if hex {
		fmt.Fprintln(w, asm.HexDump(prog))
	}
	return nil
}

func disassemble(w io.Writer, path string, source bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Load(path, "read program", err)
	}
	prog := interp.Program(data)
	if source {
		_, err = io.WriteString(w, asm.Source(prog))
		return err
	}
	_, err = io.WriteString(w, asm.Format(prog))
	return err
}
