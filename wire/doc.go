// Package wire holds the value vocabulary shared by the XML deserializer and the
// query encoder: registered enumerations with their server wire names, and the
// day-count date and whole-second duration formats the server speaks.
package wire
