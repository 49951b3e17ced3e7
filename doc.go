/*
go-detkit is an object detection toolkit for Go.  It wraps a pretrained
detection model behind a small engine interface and turns the model's raw
per image outputs (candidate boxes, class labels, confidence scores, and a
coordinate scale factor) into a clean, probability ranked list of detections
in original image pixel space.

The postprocess package carries the deduplication engine that collapses
exact and near duplicate boxes.  The preprocess package provides the
resizers that produce the scale factors it consumes.  The dataset package
prepares annotated image sets for training and the render package draws
final detections onto images.

See example code and usage in the examples subdirectory.
*/
package detkit
