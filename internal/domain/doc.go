// Package domain models NOAA Coral Reef Watch (CRW) thermal-stress analysis
// for named reef-monitoring sites.
//
// # Data Source
//
// Inputs are satellite-derived daily rasters that an upstream masking stage
// has already clipped to each site polygon and flattened into XYZ point
// files (one "lon lat value" row per remaining pixel). Three variables are
// produced per site and day:
//
//	HS   — HotSpot, instantaneous positive thermal stress in °C above the
//	       climatological maximum. Mandatory for a day to be analyzed.
//	SST  — sea-surface temperature in °C. Optional.
//	SSTA — sea-surface temperature anomaly in °C. Optional.
//
// The climatology input is a set of 12 long-term monthly mean SSTs per site,
// reduced from the CRW v3.1 global climatology over the site polygon.
//
// # Methodology
//
// Per site and day (CRW v3.1 conventions):
//
//	hs_p90 — 90th percentile of the day's HotSpot pixel population, using
//	         the linear-interpolation percentile method.
//	DHW    — Degree Heating Weeks: an 84-day (12-week) rolling accumulation
//	         of hs_p90/7, counted only on days where hs_p90 ≥ 1 °C.
//	BAA    — Bleaching Alert Area: the 7-day rolling maximum of a daily
//	         alert level classified from (hs_p90, DHW).
//
// Daily alert levels:
//
//	0 No Stress      hs_p90 ≤ 0
//	1 Watch          0 < hs_p90 < 1
//	2 Warning        hs_p90 ≥ 1, DHW < 4
//	3 Alert Level 1  hs_p90 ≥ 1, 4 ≤ DHW < 8
//	4 Alert Level 2  hs_p90 ≥ 1, DHW ≥ 8
//
// The thresholds are absolute HotSpot/DHW cutoffs. The Maximum Monthly Mean
// (MMM) baseline is carried for reporting only and is never consulted by
// the classifier.
//
// # Sentinels
//
// -999.0 marks an SST or SSTA field that could not be sampled for a day.
// Missing or empty HotSpot data skips the day entirely; no other failure
// inside this package is fatal.
package domain
