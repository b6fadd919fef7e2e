package authz

import (
	"fmt"
	"net/http"
	"strings"
)

// MethodMask is a bitset over the standard HTTP methods. A binding whose
// directive does not restrict by method gets AllMethods.
type MethodMask uint32

const (
	MethodGet MethodMask = 1 << iota
	MethodHead
	MethodPost
	MethodPut
	MethodDelete
	MethodConnect
	MethodOptions
	MethodTrace
	MethodPatch

	AllMethods MethodMask = 1<<9 - 1
)

var methodBits = map[string]MethodMask{
	http.MethodGet:     MethodGet,
	http.MethodHead:    MethodHead,
	http.MethodPost:    MethodPost,
	http.MethodPut:     MethodPut,
	http.MethodDelete:  MethodDelete,
	http.MethodConnect: MethodConnect,
	http.MethodOptions: MethodOptions,
	http.MethodTrace:   MethodTrace,
	http.MethodPatch:   MethodPatch,
}

// MethodBit returns the mask bit for a method name.
func MethodBit(method string) (MethodMask, error) {
	if bit, ok := methodBits[strings.ToUpper(method)]; ok {
		return bit, nil
	}
	return 0, fmt.Errorf("unknown HTTP method %q", method)
}

// MaskOf builds a mask from method names. An empty list means no restriction.
func MaskOf(methods ...string) (MethodMask, error) {
	if len(methods) == 0 {
		return AllMethods, nil
	}
	var m MethodMask
	for _, name := range methods {
		bit, err := MethodBit(name)
		if err != nil {
			return 0, err
		}
		m |= bit
	}
	return m, nil
}

// Contains reports whether the mask includes the given method. Unrecognized
// method names are never contained.
func (m MethodMask) Contains(method string) bool {
	bit, ok := methodBits[strings.ToUpper(method)]
	return ok && m&bit != 0
}

var methodOrder = []string{
	http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
	http.MethodDelete, http.MethodConnect, http.MethodOptions,
	http.MethodTrace, http.MethodPatch,
}

func (m MethodMask) String() string {
	if m == AllMethods {
		return "*"
	}
	var names []string
	for _, name := range methodOrder {
		if m&methodBits[name] != 0 {
			names = append(names, name)
		}
	}
	return strings.Join(names, ",")
}
