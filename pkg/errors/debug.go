package errors

import "errors"

// DumpInfo is a flattened view of an error chain for log fields.
type DumpInfo struct {
	TopMessage string
	Code       string
	Chain      []string
}

// Dump walks the error chain and collects messages plus the outermost code.
func Dump(err error) DumpInfo {
	info := DumpInfo{}
	if err == nil {
		return info
	}
	info.TopMessage = err.Error()
	if typed := As(err); typed != nil {
		info.Code = string(typed.Code())
	}
	for cur := err; cur != nil; cur = errors.Unwrap(cur) {
		info.Chain = append(info.Chain, cur.Error())
	}
	return info
}
