// Package control drives playback on a UPnP media renderer over SOAP.
//
// Starting playback takes two AVTransport actions against the device's
// control URL, strictly in sequence: SetAVTransportURI loads the media URL,
// then Play starts the transport. The second action is only attempted after
// the first returned 2xx.
//
// All failures, HTTP and transport alike, are converted into a Result value
// rather than returned as errors: the operation never raises past its
// boundary, so whatever layer sits on top can always produce a well-formed
// response.
package control
