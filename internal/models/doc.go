// Package models provides the built-in component library: grounds, wheels,
// the nonholonomic tire connection, load groups and the rolling disc model
// that composes them. The components double as the reference examples for
// writing new ones: each embeds a compose node, declares its requirement
// slots and implements only the definition hooks it needs.
//
// Conventions shared by all components: the ground frame's z axis points
// downward, so the ground normal is -z and gravity acts along +z. Symbol
// names are prefixed with the component name by the compose helpers.
package models
