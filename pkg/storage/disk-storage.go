package storage

import (
	"compress/gzip"
	"context"
	"errors"
	"io"
	"os"
	"regexp"

	"github.com/matst80/compare-finder/pkg/common/jsoncompat"
)

var ErrInvalidCategory = errors.New("invalid category name")

var categoryName = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

const jsonExt = ".json"
const gzipExt = ".json.gz"

// Fetch loads the raw records of a category, preferring the gzipped file.
func (d *DiskStorage) Fetch(ctx context.Context, category string) ([]map[string]any, error) {
	if !categoryName.MatchString(category) {
		return nil, ErrInvalidCategory
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records := make([]map[string]any, 0)
	gzName, _ := d.GetFileName(category + gzipExt)
	if _, err := os.Stat(gzName); err == nil {
		err = d.LoadGzippedJson(&records, category+gzipExt)
		return records, err
	}
	err := d.LoadJson(&records, category+jsonExt)
	return records, err
}

// Store writes the raw records of a category as plain json.
func (d *DiskStorage) Store(category string, records []map[string]any) error {
	if !categoryName.MatchString(category) {
		return ErrInvalidCategory
	}
	return d.SaveJson(records, category+jsonExt)
}

func (p *DiskStorage) SaveGzippedJson(data any, filename string) error {
	fileName, tmpFileName := p.GetFileName(filename)

	file, err := os.Create(tmpFileName)
	if err != nil {
		return err
	}
	defer file.Close()

	zipWriter := gzip.NewWriter(file)
	err = jsoncompat.NewEncoder(zipWriter).Encode(data)
	if err != nil {
		zipWriter.Close()
		return err
	}
	if err = zipWriter.Close(); err != nil {
		return err
	}

	return os.Rename(tmpFileName, fileName)
}

func (p *DiskStorage) LoadGzippedJson(data any, filename string) error {
	name, _ := p.GetFileName(filename)
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()

	zipReader, err := gzip.NewReader(file)
	if err != nil {
		return err
	}
	defer zipReader.Close()

	err = jsoncompat.NewDecoder(zipReader).Decode(data)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (p *DiskStorage) SaveJson(data any, name string) error {
	fileName, tmpFileName := p.GetFileName(name)

	file, err := os.Create(tmpFileName)
	if err != nil {
		return err
	}

	err = jsoncompat.NewEncoder(file).Encode(data)
	file.Close()
	if err != nil {
		return err
	}

	return os.Rename(tmpFileName, fileName)
}

func (p *DiskStorage) LoadJson(data any, filename string) error {
	name, _ := p.GetFileName(filename)
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()

	err = jsoncompat.NewDecoder(file).Decode(data)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
