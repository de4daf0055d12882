// Package normalisers converts fetched content items into canonical records.
//
// Normalisation is a fixed, order-dependent sequence of passes. Each pass
// mutates one record at a time and never drops it; only the pipeline itself
// discards null items before the first pass runs. The default order is:
//
//	cleanUp -> standardizeDates -> fixTypes -> digitalAsset -> moveFieldsUp -> createIds
//
// Every pass is exported so it can be exercised on its own.
package normalisers
