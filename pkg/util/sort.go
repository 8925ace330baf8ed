package util

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// GetSortBson turns "<field>_asc" / "<field>_desc" into a sort document. Only
// keys present in allowed are accepted; anything else sorts by fallback.
func GetSortBson(sort string, allowed map[string]string, fallback string) bson.D {
	value := -1
	if strings.HasSuffix(sort, "_asc") {
		value = 1
	}

	name := strings.TrimSuffix(strings.TrimSuffix(sort, "_asc"), "_desc")
	key, ok := allowed[name]
	if !ok {
		key = fallback
	}
	return bson.D{{Key: key, Value: value}}
}
