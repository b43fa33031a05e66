// Package upnp models UPnP media renderers and resolves their description
// documents.
//
// A discovery scan yields SSDP location URLs; this package turns one
// location into a usable Device descriptor by fetching the UPnP
// device-description XML and extracting the playback-relevant fields.
//
// # Description Resolution
//
// Resolution works as follows:
//  1. Validates that the location is an absolute http/https URL
//  2. Fetches the description document with a GET request
//  3. Parses the body into a generic element tree with every tag and
//     attribute name stripped of its namespace qualifier
//  4. Locates the device node (root>device or a bare device document)
//  5. Walks the service list depth-first, in document order, for the first
//     service whose type starts with the AVTransport URN prefix
//  6. Resolves the service controlURL against the origin of the location
//
// # Namespace Handling
//
// Vendor documents use inconsistent namespace prefixes ("device:", "u:",
// "upnp:", or none at all). Instead of wiring namespace tables into the
// decoder, names are canonicalized once while the tree is built, so all
// matching code compares plain unqualified names.
//
// # Error Handling
//
// Every failure is a *ResolveError carrying an ErrorType. All failures are
// local to the device being resolved: a discovery scan skips the device and
// continues. ErrTypeNoService is the routine outcome for devices that are
// not media renderers and is not treated as a fault.
package upnp
