// Package topology provides endpoint drain watchers for operations-driven
// maintenance signaling.
//
// A drain watcher tells the client that an operations team intends to take a
// cluster endpoint down (OS patching, scaling, upgrades). The client records
// the transition in logs and metrics and exposes it via IsDraining; whether
// to reconnect away from a draining endpoint remains caller policy, matching
// the library-wide split between detection and remediation.
//
// # Implementations
//
// Local is an in-memory watcher/operator pair for unit tests and demos:
//
//	drain := topology.NewLocal()
//	client, _ := aerolink.New(cfg, aerolink.WithDrainWatcher(drain))
//	_ = drain.SetDrain(ctx, "10.0.0.1:3000", true, "OS Patching")
//
// NATS watches a JetStream KV key that operations teams PUT a JSON
// DrainConfig to:
//
//	{"drain": ["10.0.0.1:3000"], "reason": "OS Patching"}
//
// The NATS watcher falls back to polling if the KV watch fails, so a drain
// signal is eventually observed even across NATS reconnects.
package topology
