// Package domain models satellite wildfire detections and the track risk score
// derived from them.
//
// # Data Source
//
// Detections originate from NASA FIRMS (Fire Information for Resource
// Management System) archive CSV exports, one file per year, available at
// https://firms.modaps.eosdis.nasa.gov/. Each row is a single thermal-anomaly
// observation from the VIIRS or MODIS instruments.
//
// # FIRMS CSV Conventions
//
// Column names vary by instrument and export vintage:
//
//	latitude, longitude: WGS-84 degrees.
//	bright_ti4:          VIIRS I-4 band brightness temperature in Kelvin.
//	                     MODIS exports call the equivalent column "brightness";
//	                     both are accepted and normalized to "brightness".
//	frp:                 fire radiative power in megawatts.
//	acq_date:            acquisition date, "YYYY-MM-DD". Normalized to "date".
//
// Any other columns (scan, track, satellite, confidence, daynight, ...) are
// ignored. Rows missing a parseable latitude, longitude, brightness, frp, or
// date are dropped during load rather than surfaced as errors; FIRMS archives
// routinely contain a handful of malformed rows per year.
//
// # Risk Model
//
// A track point's risk is a weighted combination of four factors computed over
// the detections within the search radius (default 0.05°, roughly 5.5 km at
// moderate latitudes):
//
//	count:      min(n/20, 1), saturating at 20 nearby detections.
//	intensity:  mean(frp)/50.
//	brightness: (mean(brightness)-300)/200.
//	proximity:  (R-minDist)/R, reaching 1.0 for a coincident detection.
//
//	risk = 0.4·count + 0.3·intensity + 0.2·brightness + 0.1·proximity,
//	clipped to [0, 1].
//
// Distances are planar Euclidean in degree-space, matching the radius query's
// metric. The flat-degree approximation and all constants above are the
// calibration the model was tuned with; switching to geodesic distance would
// invalidate them.
package domain
