package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"livechart/config"
	"livechart/drivers"
	"livechart/models"
	"livechart/store"
	"livechart/store/backends"
	"livechart/utils"
)

const (
	dumpName = "DUMP"
	dumpExt  = ".bin"
)

// dumper exports the samples of a source within a span to a recording that the replay driver can play back.
func main() {
	fs := flag.NewFlagSet("dumper", flag.ExitOnError)
	var from, to, outDir string
	fs.StringVar(&from, "from", "", "span start, RFC 3339 or epoch ms (default: one hour before -to)")
	fs.StringVar(&to, "to", "", "span end, RFC 3339 or epoch ms (default: now)")
	fs.StringVar(&outDir, "out", drivers.LOG_DIR, "directory the dump is written to")

	flags, _, err := config.ParseFlags(fs, os.Args[1:])
	if err != nil {
		log.Fatalf("couldn't parse flags: %v", err)
	}
	span, err := parseSpan(from, to, time.Now())
	if err != nil {
		log.Fatalf("span: %v", err)
	}

	ctx := context.Background()
	samples, closeStore, err := backends.Open(ctx, flags)
	if err != nil {
		log.Fatalf("open %s store: %v", flags.Store, err)
	}
	defer closeStore()

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.Fatalf("create %s: %v", outDir, err)
	}
	path := utils.NextAvailableFilename(outDir, dumpName, dumpExt)
	file, err := os.Create(path)
	if err != nil {
		log.Fatalf("create %s: %v", path, err)
	}
	defer file.Close()

	count, err := dump(ctx, samples, flags.Source, span, file)
	if err != nil {
		log.Fatalf("dump: %v", err)
	}
	log.Printf("wrote %d samples of %s to %s", count, flags.Source, path)
}

func dump(ctx context.Context, samples store.SampleStore, source string, span models.Span, w io.Writer) (int, error) {
	results, err := samples.GetByTimeRange(ctx, source, span.Start, span.End)
	if err != nil {
		return 0, err
	}

	writer := bufio.NewWriter(w)
	for _, sample := range results {
		if err := drivers.WriteFrame(writer, sample); err != nil {
			return 0, fmt.Errorf("write sample at %d: %w", sample.Timestamp, err)
		}
	}
	return len(results), writer.Flush()
}

func parseSpan(from, to string, now time.Time) (models.Span, error) {
	end := now
	if to != "" {
		t, err := parseTime(to)
		if err != nil {
			return models.Span{}, err
		}
		end = t
	}
	start := end.Add(-time.Hour)
	if from != "" {
		t, err := parseTime(from)
		if err != nil {
			return models.Span{}, err
		}
		start = t
	}

	span := models.NewSpan(start, end)
	if !span.Valid() {
		return models.Span{}, fmt.Errorf("%s is after %s", start, end)
	}
	return span, nil
}

func parseTime(value string) (time.Time, error) {
	if millis, err := strconv.ParseInt(value, 10, 64); err == nil {
		return time.UnixMilli(millis), nil
	}
	return time.Parse(time.RFC3339, value)
}
