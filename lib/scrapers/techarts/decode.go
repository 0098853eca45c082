package techarts

import (
	"bytes"
	"compress/flate"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
)

// Status tags the outcome of one series fetch. Every stage failure
// maps to its own tag so the emitted row says where decoding stopped.
type Status string

const (
	StatusOK           Status = "ok"
	StatusRequestError Status = "request-error"
	StatusDecodeError  Status = "decode-error"
	StatusEmptySeries  Status = "empty-series"
	StatusMissingSerie Status = "missing-serie"
)

// Serie is the decoded time-series node. Data is ordered oldest to
// newest; each point is a [value, ..., ..., obs_date] tuple.
type Serie struct {
	Unit      string  `json:"unit"`
	Frequency string  `json:"frequency"`
	Data      [][]any `json:"data"`
}

type payloadEntry struct {
	Series []struct {
		Serie *Serie `json:"serie"`
	} `json:"series"`
}

// decodePayload reverses the chart endpoint's obfuscation: base64,
// then a repeating XOR key cycled byte-wise over the whole buffer,
// then a raw deflate stream, then JSON.
func decodePayload(body []byte, key []byte) ([]payloadEntry, error) {
	raw, err := base64.StdEncoding.DecodeString(string(bytes.TrimSpace(body)))
	if err != nil {
		return nil, fmt.Errorf("base64: %w", err)
	}
	if len(key) == 0 {
		return nil, fmt.Errorf("empty obfuscation key")
	}

	xored := make([]byte, len(raw))
	for i, b := range raw {
		xored[i] = b ^ key[i%len(key)]
	}

	inflated, err := io.ReadAll(flate.NewReader(bytes.NewReader(xored)))
	if err != nil {
		return nil, fmt.Errorf("inflate: %w", err)
	}

	var entries []payloadEntry
	if err := json.Unmarshal(inflated, &entries); err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	return entries, nil
}

// extractSerie walks the decoded payload down to the first serie node.
func extractSerie(entries []payloadEntry) (*Serie, Status) {
	if len(entries) == 0 || len(entries[0].Series) == 0 {
		return nil, StatusEmptySeries
	}
	serie := entries[0].Series[0].Serie
	if serie == nil {
		return nil, StatusMissingSerie
	}
	return serie, StatusOK
}
