// Package analysis turns a market snapshot into a written market analysis.
//
// The sentiment indicators are derived from the snapshot without a model;
// they are rendered into the prompt so that the model only writes the text
// around known facts. Workflow sequences the price pipeline and the analyzer.
package analysis
