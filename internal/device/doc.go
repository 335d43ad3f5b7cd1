// Package device models openHASP devices and the components (object files,
// command scripts, images, fonts) that make up their configuration, and
// discovers them below a configuration root:
//
//	<root>/common/...                  components shared by every device
//	<root>/devices/<name>/config.json  marks a device
//	<root>/devices/<name>/...          device specific components
package device
