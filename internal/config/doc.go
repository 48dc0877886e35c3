// Package config provides the StressBand configuration: defaults, the
// optional .stressband YAML file and validation of the merged result.
package config
