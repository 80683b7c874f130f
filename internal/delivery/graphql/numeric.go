package graphql

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Numeric is the input scalar for prices. It keeps the submitted value as
// text so the service applies one coercion rule to numbers and strings alike.
type Numeric struct {
	raw string
}

// ImplementsGraphQLType maps Numeric to the schema scalar of the same name.
func (Numeric) ImplementsGraphQLType(name string) bool {
	return name == "Numeric"
}

// UnmarshalGraphQL accepts literals and variables of number or string type.
func (n *Numeric) UnmarshalGraphQL(input interface{}) error {
	switch v := input.(type) {
	case string:
		n.raw = v
	case float64:
		n.raw = strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		n.raw = strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int32:
		n.raw = strconv.FormatInt(int64(v), 10)
	case int64:
		n.raw = strconv.FormatInt(v, 10)
	case int:
		n.raw = strconv.Itoa(v)
	case json.Number:
		n.raw = v.String()
	default:
		return fmt.Errorf("wrong type for Numeric: %T", input)
	}
	return nil
}

func (n Numeric) String() string { return n.raw }
