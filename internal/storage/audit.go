package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const auditFileName = "llm_responses.jsonl"

// AuditRecord is one line of the append-only LLM audit log. RawResponse is
// always present, even (especially) when parsing failed; Response is nil in
// that case.
type AuditRecord struct {
	Timestamp   string      `json:"timestamp"`
	Response    interface{} `json:"response"`
	RawResponse string      `json:"raw_response"`
}

// AppendResponse appends one audit record as a single JSON line. The log is
// write-only from the core's perspective; nothing here ever reads it back.
func (s *Store) AppendResponse(parsed interface{}, raw string) error {
	record := AuditRecord{
		Timestamp:   time.Now().Format(time.RFC3339),
		Response:    parsed,
		RawResponse: raw,
	}

	b, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}

	path := filepath.Join(s.dir, auditFileName)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("write audit record: %w", err)
	}
	return nil
}

// AuditPath returns the location of the audit log for operator messaging.
func (s *Store) AuditPath() string {
	return filepath.Join(s.dir, auditFileName)
}
