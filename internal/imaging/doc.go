// Package imaging loads plot scans and prepares them for marker detection.
//
// It wraps the file side of the tool: an ImageCache that decodes PNG, JPEG,
// GIF and plain PPM files once per path, region cropping and rescaling ahead
// of detection, PNG encoding for MCP responses, and an overlay that marks
// detected centres on the original scan.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with the origin at the top-left corner:
//   - X increases rightward
//   - Y increases downward
//   - For regions, (X1,Y1) is inclusive and (X2,Y2) is exclusive
//
// Images returned by CropRegion and MarkerOverlay always have their origin at
// (0, 0), matching the coordinates the detection package reports.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The other functions are stateless and
// never modify their input image.
package imaging
