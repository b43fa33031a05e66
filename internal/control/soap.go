package control

import (
	"fmt"
	"strings"
)

const (
	envelopeNS    = "http://schemas.xmlsoap.org/soap/envelope/"
	encodingStyle = "http://schemas.xmlsoap.org/soap/encoding/"
)

// xmlEscaper covers the five characters that can break out of element
// content: a media URL is attacker-ish input as far as the envelope is
// concerned.
var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"'", "&apos;",
	`"`, "&quot;",
)

func xmlEscape(s string) string {
	return xmlEscaper.Replace(s)
}

// envelope wraps one action in a SOAP 1.1 envelope. The action element is
// namespaced to the service type the device advertised, not to a fixed
// AVTransport version.
func envelope(serviceType, action, arguments string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<s:Envelope xmlns:s="%s" s:encodingStyle="%s">
  <s:Body>
    <u:%s xmlns:u="%s">%s</u:%s>
  </s:Body>
</s:Envelope>`, envelopeNS, encodingStyle, action, serviceType, arguments, action)
}

// soapAction builds the quoted SOAPAction header value
func soapAction(serviceType, action string) string {
	return `"` + serviceType + "#" + action + `"`
}
