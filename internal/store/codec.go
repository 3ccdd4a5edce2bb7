// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package store

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"nickandperla.net/linedsl/internal/command"
	"nickandperla.net/linedsl/internal/token"
)

// record is the persisted form of a command. HasParams keeps the
// no-parameters form apart from an empty list.
type record struct {
	Kind      int      `cbor:"1,keyasint"`
	Name      string   `cbor:"2,keyasint"`
	Params    []string `cbor:"3,keyasint"`
	HasParams bool     `cbor:"4,keyasint"`
}

var encMode = mustEncMode()

func mustEncMode() cbor.EncMode {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("cbor: %v", err))
	}
	return em
}

// EncodeBody produces a deterministic CBOR encoding of a subscript body.
func EncodeBody(body []command.Command) ([]byte, error) {
	records := make([]record, len(body))
	for i, c := range body {
		records[i] = record{
			Kind:      int(c.Kind),
			Name:      c.Name,
			Params:    c.Params,
			HasParams: c.HasParams(),
		}
	}
	data, err := encMode.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("CBOR encoding failed: %w", err)
	}
	return data, nil
}

// DecodeBody reverses EncodeBody.
func DecodeBody(data []byte) ([]command.Command, error) {
	var records []record
	if err := cbor.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("CBOR decoding failed: %w", err)
	}
	body := make([]command.Command, len(records))
	for i, r := range records {
		c := command.Command{Kind: token.Kind(r.Kind), Name: r.Name}
		if r.HasParams {
			c.Params = r.Params
			if c.Params == nil {
				c.Params = []string{}
			}
		}
		body[i] = c
	}
	return body, nil
}
