// Package env loads .env files and expands ${VAR} references in application
// configuration files before they are decoded.
//
// Lookup order for a reference is: variables passed by the caller (usually the
// contents of a .env file next to the config), then the process environment,
// then the inline default of a ${VAR:-default} reference.
package env
