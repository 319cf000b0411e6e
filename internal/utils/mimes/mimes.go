package mimes

const (
	App_json   = "application/json" // application/json
	Text_plain = "text/plain"       // text/plain
)
