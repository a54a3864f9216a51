// Command markup-export renders an image's sidecar annotations into a
// flattened copy without opening the GUI.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"image-markup/internal/annotation"
	"image-markup/internal/export"
	"image-markup/internal/image"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	output := flag.String("o", "", "output path (default: <stem>_annotated.png; extension selects the encoder)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: markup-export [-o output] <image>\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	imagePath := flag.Arg(0)

	src := image.Load(imagePath)
	if src.Image == nil {
		log.Fatalf("Cannot export: %s is missing or not a decodable image", imagePath)
	}

	store := annotation.NewStore(imagePath)
	store.Load()
	log.Printf("Loaded %d annotations from %s", store.Len(), store.Path())

	outPath := *output
	if outPath == "" {
		outPath = export.OutputPath(imagePath)
	}

	if err := export.Export(src.Image, store.All(), outPath); err != nil {
		log.Fatalf("Export failed: %v", err)
	}
	log.Printf("Exported to %s", outPath)
}
