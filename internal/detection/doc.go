// Package detection provides the low-level locators the fact detectors are
// built from.
//
// # Template Matching
//
// MatchTemplate, MatchTemplateSingle and MatchTemplateMultiple search an image
// for a small reference image using normalized cross-correlation
// (TM_CCOEFF_NORMED). Multiple matches are made non-overlapping by zeroing the
// score map under each accepted match. A miss is reported as a *NotFoundError
// carrying the best score, so callers can tell a near miss from a clean miss.
//
// # Neural Detectors
//
// Networks sit behind the Runner interface. ONNXRunner runs a model through
// the OpenCV DNN module; tests supply fakes that return canned tensors.
//
//   - Bounding-box models (minimap, mobs, rune arrows) emit rows of
//     [x1, y1, x2, y2, confidence, class...] in 640x640 model space.
//     DecodeCandidates, BestCandidate and Remap turn them into frame
//     rectangles.
//   - The text detector emits character and affinity score maps at half its
//     input resolution. ExtractTextBoxes turns them into word boxes.
//
// # Minimap
//
// LocateMinimap refines the minimap model's box with a contour pass and a
// border thickness vote, yielding the inner map area.
//
// # Coordinate System
//
// All rectangles are imaging.Rect in pixel coordinates with the origin at the
// top-left. Functions that work on a crop take an offset and return
// full-frame coordinates. ToMinimapCoordinate converts a screen box into a
// minimap position relative to the player.
package detection
