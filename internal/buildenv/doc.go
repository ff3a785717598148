// Package buildenv captures the build environment of the host: installed system packages
// reported by dpkg, installed Python packages reported by pip3, and the Linux distribution
// reported by lsb_release.
package buildenv
