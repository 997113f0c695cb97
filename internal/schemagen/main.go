package main

import (
	"flag"
	"log"
	"os"

	"github.com/ccoe-dev/pexp/pkg/schema"
)

var outFile = flag.String("o", "exceptions.v1.json", "Output file for the generated schema")

func main() {
	flag.Parse()

	gen := schema.NewGenerator(&schema.Document{},
		"github.com/ccoe-dev/pexp/pkg/schema",
	)

	jsData, err := gen.Generate()
	if err != nil {
		log.Fatalf("generate JSON schema: %v", err)
	}

	err = os.WriteFile(*outFile, jsData, 0o600)
	if err != nil {
		log.Fatalf("write schema file: %v", err)
	}
}
