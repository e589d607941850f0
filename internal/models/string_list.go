package models

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// StringList is a []string that also decodes documents written before the
// catalog moved to multi-valued categories, where the field holds a single
// string. New writes always store an array.
type StringList []string

func (s *StringList) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*s = nil
		return nil
	case bsontype.Array:
		var items []string
		if err := bson.UnmarshalValue(t, data, &items); err != nil {
			return err
		}
		*s = items
		return nil
	case bsontype.String:
		var single string
		if err := bson.UnmarshalValue(t, data, &single); err != nil {
			return err
		}
		if trimmed := strings.TrimSpace(single); trimmed != "" {
			*s = StringList{trimmed}
		} else {
			*s = StringList{}
		}
		return nil
	}
	return fmt.Errorf("cannot decode %s into a string list", t)
}

func (s StringList) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue([]string(s))
}
