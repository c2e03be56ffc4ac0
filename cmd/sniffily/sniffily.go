package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"strings"

	"livechart/drivers"
	"livechart/models"
)

const (
	sniffLocation = "logs/RAWLOG.bin"
	outLocation   = "logs/read_filtered.jsonl"
)

// sniffily prints the samples of a recording as JSON lines, keeping only the named fields.
func main() {
	in := flag.String("in", sniffLocation, "recording to read")
	out := flag.String("out", outLocation, "JSON lines file to write, - for stdout")
	fields := flag.String("fields", "", "comma separated field names to keep, empty keeps all")
	flag.Parse()

	file, err := os.Open(*in)
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()

	var writer io.Writer = os.Stdout
	if *out != "-" {
		outFile, err := os.Create(*out)
		if err != nil {
			log.Fatal(err)
		}
		defer func() {
			// Flush to disk
			if err := outFile.Sync(); err != nil {
				log.Print(err)
			}
			_ = outFile.Close()
		}()
		writer = outFile
	}

	written, err := sniff(file, writer, splitFields(*fields))
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %d samples", written)
}

func splitFields(list string) []string {
	var names []string
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

func sniff(r io.Reader, w io.Writer, fields []string) (int, error) {
	reader := bufio.NewReader(r)
	writer := bufio.NewWriter(w)
	encoder := json.NewEncoder(writer)

	written := 0
	for {
		sample, err := drivers.ReadFrame(reader)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return written, writer.Flush()
			}
			if drivers.IsCorrupt(err) {
				log.Printf("skipping frame: %v", err)
				continue
			}
			return written, err
		}

		sample, ok := filter(sample, fields)
		if !ok {
			continue
		}
		if err := encoder.Encode(sample); err != nil {
			return written, err
		}
		written++
	}
}

// filter keeps the named fields of sample, reporting false when none are left.
func filter(sample models.Sample, fields []string) (models.Sample, bool) {
	if len(fields) == 0 {
		return sample, true
	}
	var kept []models.Field
	for _, field := range sample.Values {
		for _, name := range fields {
			if field.Name == name {
				kept = append(kept, field)
				break
			}
		}
	}
	return models.Sample{Timestamp: sample.Timestamp, Values: kept}, len(kept) > 0
}
