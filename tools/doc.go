// Package tools defines the contract of agent tools: a name, a description
// and a JSON schema for the model, and a Call entry point taking the JSON
// arguments the model produced.
package tools
