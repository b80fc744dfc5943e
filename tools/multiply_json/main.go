// Multiply_json writes a larger copy of a record document by repeating its records.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ErikKalkoken/jsoneditor/internal/jsonvalue"
	"github.com/ErikKalkoken/jsoneditor/internal/locator"
)

var (
	factorFlag = flag.Int("f", 3, "how many copies of each record to write")
	keyFlag    = flag.String("key", "", "key of the record array, default from the article convention")
	outFlag    = flag.String("o", "out.json", "output file")
	prefixFlag = flag.String("prefix", "", "record ID prefix, default from the article convention")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: multiply_json [flags] <file>\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 || *factorFlag < 1 {
		flag.Usage()
		os.Exit(2)
	}
	cfg := locator.DefaultConfig()
	if *keyFlag != "" {
		cfg.ArrayKey = *keyFlag
	}
	if *prefixFlag != "" {
		cfg.IDPrefix = *prefixFlag
	}
	input := flag.Arg(0)
	data, err := os.ReadFile(input)
	if err != nil {
		log.Fatal(err)
	}
	source, err := jsonvalue.Parse(data)
	if err != nil {
		log.Fatalf("%s: %s", input, err)
	}
	records, ok := source.Field(cfg.ArrayKey)
	if !ok || records.Type() != jsonvalue.Array {
		log.Fatalf("%s: no %q array at top level", input, cfg.ArrayKey)
	}
	target, err := multiply(cfg, source, records.Items(), *factorFlag)
	if err != nil {
		log.Fatal(err)
	}
	out, err := jsonvalue.MarshalIndent(target)
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(*outFlag, out, 0644); err != nil {
		log.Fatal(err)
	}
	n := records.Len() * *factorFlag
	fmt.Printf("Wrote %d records to %s\n", n, *outFlag)
}

// multiply returns a copy of doc with the records repeated factor times.
// Records are renumbered, so that all IDs stay unique.
func multiply(cfg locator.Config, doc jsonvalue.Value, records []jsonvalue.Value, factor int) (jsonvalue.Value, error) {
	items := make([]jsonvalue.Value, 0, len(records)*factor)
	for range factor {
		for _, r := range records {
			if r.Type() == jsonvalue.Object {
				id := cfg.RecordID(fmt.Sprint(len(items) + 1))
				x, err := jsonvalue.Set(r, jsonvalue.NewPath(cfg.IDKey), jsonvalue.NewString(id))
				if err != nil {
					return jsonvalue.Value{}, err
				}
				r = x
			}
			items = append(items, r)
		}
	}
	return jsonvalue.Set(doc, jsonvalue.NewPath(cfg.ArrayKey), jsonvalue.NewArray(items...))
}
