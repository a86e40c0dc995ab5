// featuresummary is a convenience tool to summarize a feature CSV
// produced by extractfeatures: per-column N, mean, SD, min, median, and
// max, plus an optional console histogram for one chosen column.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

func main() {
	var input, histColumn string
	var buckets int

	flag.StringVar(&input, "input", "", "The input feature CSV")
	flag.StringVar(&histColumn, "hist", "", "(Optional) Column name to print a console histogram for.")
	flag.IntVar(&buckets, "buckets", 10, "(Optional) Number of histogram buckets.")
	flag.Parse()

	if input == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	f, err := os.Open(input)
	if err != nil {
		log.Fatalln(err)
	}
	defer f.Close()

	if err := summarize(f, histColumn, buckets); err != nil {
		log.Fatalln(err)
	}
}

func summarize(f io.Reader, histColumn string, buckets int) error {
	csvReader := csv.NewReader(f)
	entries, err := csvReader.ReadAll()
	if err != nil {
		return err
	}

	if len(entries) < 1 {
		return fmt.Errorf("no entries in the input file")
	}

	header := entries[0]

	// Column name => observed numeric values, in column order
	values := make([][]float64, len(header))
	for i, row := range entries {
		if i == 0 {
			continue
		}

		for j, cell := range row {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				// Non-numeric columns (image, mask) are skipped silently
				continue
			}
			values[j] = append(values[j], v)
		}
	}

	output := []string{"Column", "N", "Mean", "SD", "Min", "Median", "Max"}
	fmt.Println(strings.Join(output, "\t"))

	for j, name := range header {
		vals := values[j]
		if len(vals) == 0 {
			continue
		}

		mean, sd := stat.MeanStdDev(vals, nil)

		min, err := stats.Min(vals)
		if err != nil {
			return err
		}
		median, err := stats.Median(vals)
		if err != nil {
			return err
		}
		max, err := stats.Max(vals)
		if err != nil {
			return err
		}

		entry := []string{
			name,
			strconv.Itoa(len(vals)),
			strconv.FormatFloat(mean, 'g', 6, 64),
			strconv.FormatFloat(sd, 'g', 6, 64),
			strconv.FormatFloat(min, 'g', 6, 64),
			strconv.FormatFloat(median, 'g', 6, 64),
			strconv.FormatFloat(max, 'g', 6, 64),
		}
		fmt.Println(strings.Join(entry, "\t"))
	}

	if histColumn != "" {
		col := -1
		for j, name := range header {
			if name == histColumn {
				col = j
				break
			}
		}
		if col < 0 {
			return fmt.Errorf("column %q not found in %v", histColumn, header)
		}
		if len(values[col]) == 0 {
			return fmt.Errorf("column %q has no numeric values", histColumn)
		}

		fmt.Println()
		hist := histogram.Hist(buckets, values[col])
		if err := histogram.Fprint(os.Stdout, hist, histogram.Linear(40)); err != nil {
			return err
		}
	}

	return nil
}
