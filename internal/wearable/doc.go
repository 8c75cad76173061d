// Package wearable defines the contract between a wearable host application and
// the device connectivity SDK it drives.
//
// The package owns the value types that cross that boundary:
//   - DeviceHandle for a previously paired device
//   - SensorIntent and GestureIntent, the declarative sensor configuration
//   - Session, an established logical connection (real or simulated)
//   - Task and Result, the cancellable single-fire outcome of a connect attempt
//
// BLE transport, discovery and pairing are left to SDK implementations such as
// the goble subpackage.
package wearable
