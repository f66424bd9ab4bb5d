// Package probe fetches runtime snapshots from the process being watched and
// turns them into dashboard updates.
//
// Each configured source gets a Poller. The poller fetches the endpoint on
// its own ticker, decodes the payload, and delivers a dashboard.Update on a
// bounded channel. Endpoints are URLs; the scheme picks the transport:
//
//	http(s)://host/path          GET, format from Content-Type
//	file:///path/to/fibers.json  read every poll, format from extension
//	ssh://alias/command?format=  run a command over SSH
//	mqtt://broker:1883/topic     latest message published on topic
//
// Payloads may be JSON, YAML, CBOR or TOML with the same field names.
package probe
