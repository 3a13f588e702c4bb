package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

var ErrFileNotFound = errors.New("file not found")

func ReadBytesFromFile(file string) ([]byte, error) {
	_, err := os.Stat(file)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, file)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}
	return data, nil
}

func ReadJSONFromFile[T any](file string) (T, error) {
	var value T
	data, err := ReadBytesFromFile(file)
	if err != nil {
		return value, err
	}
	if err := json.Unmarshal(data, &value); err != nil {
		return value, fmt.Errorf("failed to decode %s: %w", file, err)
	}
	return value, nil
}

func WriteJSONToFile[T any](value T, file string) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	outfile, err := os.Create(file)
	if err != nil {
		return err
	}
	defer outfile.Close()
	_, err = outfile.Write(data)
	return err
}
