// Package grid decodes complete grid shift files into an in-memory tree.
//
// A file is read in one forward pass:
//
//  1. The first record's value holds NUM_OREC, the number of overview
//     records including itself.
//  2. The remaining NUM_OREC-1 records are keyed fields decoded through the
//     codec overview rules.
//  3. NUM_FILE sub-grids follow. Each has the fixed 11-record header
//     (SUB_NAME through GS_COUNT) and then GS_COUNT shift records.
//
// Any stream that ends inside this structure fails with one of the
// truncation errors and no tree is returned. Inconsistencies that do not
// prevent decoding (for example NUM_SREC differing from the fixed header
// length) are reported as warnings on the returned GridFile.
//
// The tree marshals to JSON and YAML with header keys in file order and each
// sub-grid's shifts as [lat, lon, latAccuracy, lonAccuracy] rows.
package grid
