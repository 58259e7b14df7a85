package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	bson "github.com/synadia-labs/bson.go/runtime"
)

// CLI defines the bsondump command-line interface.
//
// We deliberately keep it minimal:
//   - input: a file of document bytes (or stdin), optionally hex text
//   - json: emit extended JSON instead of diagnostic notation
//   - check: validate only, no output
//
// The input may hold several concatenated documents; each is printed on
// its own line.
type CLI struct {
	Input string `arg:"" optional:"" help:"Input file (defaults to stdin)"`
	Hex   bool   `short:"x" help:"Treat input as hex text (whitespace ignored)"`
	JSON  bool   `short:"j" help:"Emit extended JSON instead of diagnostic notation"`
	Check bool   `short:"c" help:"Validate only; print nothing on success"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("bsondump"),
		kong.Description("Validate and dump flat-buffer BSON documents."),
	)

	if err := run(&cli); err != nil {
		ctx.FatalIfErrorf(err)
	}
}

func run(cli *CLI) error {
	data, err := readInput(cli.Input)
	if err != nil {
		return err
	}
	if cli.Hex {
		data, err = decodeHexText(data)
		if err != nil {
			return fmt.Errorf("decode hex input: %w", err)
		}
	}

	for n := 0; len(data) > 0; n++ {
		total := bson.QuerySize(data)
		if total < bson.MinDocumentSize || total > len(data) {
			return fmt.Errorf("document %d: truncated or invalid length prefix", n)
		}
		doc := data[:total]
		data = data[total:]

		if err := bson.ValidateDocument(doc); err != nil {
			return fmt.Errorf("document %d: %w", n, err)
		}
		if cli.Check {
			continue
		}
		out, err := render(doc, cli.JSON)
		if err != nil {
			return fmt.Errorf("document %d: %w", n, err)
		}
		fmt.Println(out)
	}
	return nil
}

func render(doc []byte, asJSON bool) (string, error) {
	if asJSON {
		js, err := bson.ToJSON(doc)
		return string(js), err
	}
	return bson.DumpBytes(doc)
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func decodeHexText(data []byte) ([]byte, error) {
	fields := strings.Fields(string(data))
	cleaned := strings.Join(fields, "")
	if cleaned == "" {
		return nil, errors.New("empty hex input")
	}
	return hex.DecodeString(cleaned)
}
