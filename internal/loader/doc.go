// Package loader reads mission definitions from disk. JSON, YAML and HCL
// mission files are supported; every loaded mission is validated before it
// is handed to the engine.
package loader
