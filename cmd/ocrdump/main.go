// ocrdump runs the acquisition and extraction stages against a local file and
// prints the resulting fields as JSON, without touching any store. Handy for
// tuning Tesseract settings against problem documents.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BekirBz/invoice-ai-mvp/pkg/extract"
	"github.com/BekirBz/invoice-ai-mvp/pkg/ocr"
)

func main() {
	file := flag.String("file", "", "invoice file to process (pdf or image)")
	lang := flag.String("lang", "eng", "tesseract language")
	dpi := flag.Int("dpi", 300, "rasterization DPI for PDFs")
	timeout := flag.Duration("timeout", 2*time.Minute, "acquisition deadline")
	showText := flag.Bool("text", false, "also print the raw page texts")
	flag.Parse()
	if *file == "" {
		fmt.Println("usage: ocrdump -file invoice.pdf [-lang eng] [-dpi 300] [-text]")
		os.Exit(2)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("read %s: %v", *file, err)
	}

	extractor := ocr.New(ocr.Config{Language: *lang, DPI: *dpi, Timeout: *timeout})
	texts, err := extractor.ExtractTexts(context.Background(), data, filepath.Base(*file))
	if err != nil {
		log.Fatalf("ocr: %v", err)
	}
	fmt.Printf("pages: %d\n", len(texts))
	if *showText {
		for i, t := range texts {
			fmt.Printf("--- page %d ---\n%s\n", i+1, t)
		}
	}

	fields := extract.Run(strings.Join(texts, "\n"))
	out, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		log.Fatalf("marshal: %v", err)
	}
	fmt.Println(string(out))
}
