package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// MarshalJSON always emits child collections as arrays, never null.
func (t *Table) MarshalJSON() ([]byte, error) {
	type alias Table
	a := alias(*t)
	if a.Columns == nil {
		a.Columns = []*Column{}
	}
	if a.Indexes == nil {
		a.Indexes = []*Index{}
	}
	if a.ForeignKeys == nil {
		a.ForeignKeys = []*ForeignKey{}
	}
	return json.Marshal(a)
}

func (i *Index) MarshalJSON() ([]byte, error) {
	type alias Index
	a := alias(*i)
	if a.Columns == nil {
		a.Columns = []string{}
	}
	return json.Marshal(a)
}

func (fk *ForeignKey) MarshalJSON() ([]byte, error) {
	type alias ForeignKey
	a := alias(*fk)
	if a.Columns == nil {
		a.Columns = []string{}
	}
	if a.ReferencedColumns == nil {
		a.ReferencedColumns = []string{}
	}
	return json.Marshal(a)
}

// MarshalJSON encodes the schema as {"tables": {name: table}, "connection": label}.
// Tables are written in schema order.
func (s *DatabaseSchema) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"tables":{`)
	for i, t := range s.Tables {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(t.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(t)
		if err != nil {
			return nil, fmt.Errorf("encode table %s: %w", t.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteString(`},"connection":`)
	conn, err := json.Marshal(s.Connection)
	if err != nil {
		return nil, err
	}
	buf.Write(conn)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes the shape written by MarshalJSON. Tables come back
// sorted by name since JSON objects carry no order.
func (s *DatabaseSchema) UnmarshalJSON(data []byte) error {
	var raw struct {
		Tables     map[string]*Table `json:"tables"`
		Connection *string           `json:"connection"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	names := make([]string, 0, len(raw.Tables))
	for name := range raw.Tables {
		names = append(names, name)
	}
	sort.Strings(names)

	s.Tables = make([]*Table, 0, len(names))
	for _, name := range names {
		t := raw.Tables[name]
		if t == nil {
			t = NewTable(name)
		}
		if t.Name == "" {
			t.Name = name
		}
		for _, fk := range t.ForeignKeys {
			fk.OnUpdate = NormalizeAction(fk.OnUpdate)
			fk.OnDelete = NormalizeAction(fk.OnDelete)
		}
		s.Tables = append(s.Tables, t)
	}
	s.Connection = raw.Connection
	return nil
}
