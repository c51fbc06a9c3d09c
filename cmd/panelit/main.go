package main

import (
	"encoding/binary"
	"encoding/csv"
	"flag"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/quantfold/replay/pkg/datasource/historical"
)

type dailyBar struct {
	Date   time.Time
	Open   float64
	Close  float64
	Vwap   float64
	Amount float64
}

func convertOne(csvPath string, binFile *os.File) error {
	csvFile, err := os.Open(csvPath)
	if err != nil {
		return err
	}
	defer func(csvFile *os.File) {
		_ = csvFile.Close()
	}(csvFile)

	reader := csv.NewReader(csvFile)
	var bars []dailyBar

	// Skip header
	_, err = reader.Read()
	if err != nil {
		log.Fatal(err)
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Fatal(err)
		}

		date, err := time.Parse(time.DateOnly, record[0])
		if err != nil {
			log.Fatal(err)
		}

		open, _ := strconv.ParseFloat(record[1], 64)
		cls, _ := strconv.ParseFloat(record[2], 64)
		vwap, _ := strconv.ParseFloat(record[3], 64)
		amount, _ := strconv.ParseFloat(record[4], 64)

		bars = append(bars, dailyBar{
			Date:   date,
			Open:   open,
			Close:  cls,
			Vwap:   vwap,
			Amount: amount,
		})
	}

	for _, b := range bars {
		d := historical.BinaryBar{
			TimeStamp: b.Date.UnixNano(),
			Open:      b.Open,
			Close:     b.Close,
			Vwap:      b.Vwap,
			Amount:    b.Amount,
		}
		err := binary.Write(binFile, binary.LittleEndian, d)
		if err != nil {
			log.Fatal(err)
		}
	}

	return nil
}

func convertAll(sid string, fromYear, toYear int) error {
	binFile, err := os.Create(sid + ".bin")
	if err != nil {
		return err
	}
	defer func(binFile *os.File) {
		_ = binFile.Close()
	}(binFile)

	for i := fromYear; i <= toYear; i++ {
		s := sid + "_" + strconv.Itoa(i) + ".csv"
		if err := convertOne(s, binFile); err != nil {
			return os.Remove(sid + ".bin")
		}
		slog.Info("conversion finished", "sid", sid, "file", s)
	}

	return nil
}

func main() {
	sid := flag.String("sid", "", "instrument id")
	fromYear := flag.Int("from", 2018, "first year")
	toYear := flag.Int("to", 2025, "last year")
	flag.Parse()

	if *sid == "" {
		slog.Error("sid is required")
	} else if err := convertAll(*sid, *fromYear, *toYear); err != nil {
		slog.Error("failed to convert", "error", err)
	} else {
		slog.Info("done")
	}
}
