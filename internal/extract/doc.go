// Package extract derives structured facts from program description text:
// requirements, selection criteria and training sites.
//
// Every rule set is an ordered list. Rules are applied in list order and the
// records they produce keep that order, so repeated runs over the same text
// emit identical output.
package extract
