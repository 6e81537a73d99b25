package config

import _ "embed"

// FileName is the project file written by Init.
const FileName = "reassemble.yml"

// Example is a commented reassemble.yml holding the built-in defaults.
//
//go:embed reassemble.example.yml
var Example []byte
