// Package provider implements domain.HotspotProvider over the three hotspot
// sources the service supports: the compiled-in reference set, a YAML seed
// file, and a live snapshot fed by the Kafka pipeline.
package provider
