package fa3

import (
	"encoding/xml"
	"fmt"
	"os"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

// Write marshals doc and writes it to path as UTF-8, XML-escaped (the
// encoding/xml marshaller escapes `& < > " '` in text nodes automatically).
func Write(doc *Faktura, path string) error {
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("fa3: marshal document: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("fa3: create file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(xmlHeader); err != nil {
		return fmt.Errorf("fa3: write header: %w", err)
	}
	if _, err := f.Write(body); err != nil {
		return fmt.Errorf("fa3: write body: %w", err)
	}
	return f.Sync()
}
