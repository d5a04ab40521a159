package errors

import (
	"encoding/json"
	"fmt"
)

// ErrDataI is structured context attached to an *Error.
type ErrDataI interface {
	EncodeErrorData() []byte
	Error() string
	GetData(key string) interface{}
	SetData(key string, value interface{})
}

// ErrData is free-form key/value context.
type ErrData map[string]interface{}

func (e *ErrData) Error() string {
	return fmt.Sprintf(" %v", *e)
}

func (e *ErrData) SetData(key string, value interface{}) {
	if e != nil {
		(*e)[key] = value
	}
}

func (e *ErrData) GetData(key string) interface{} {
	if e == nil {
		return nil
	}

	return (*e)[key]
}

// EncodeErrorData returns the JSON form of e, or nothing when it does not
// marshal.
func (e *ErrData) EncodeErrorData() []byte {
	data, err := json.Marshal(e)
	if err != nil {
		return nil
	}

	return data
}
