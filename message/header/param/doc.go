// Package param provides a tool for dealing with parameterized headers. These
// headers include the Content-type and Content-disposition header. In addition,
// it provides some helper methods for breaking down the MIME types that get
// set in the Content-type header.
//
// Mail in the wild is frequently sloppy about parameter syntax, so alongside
// the strict Parse() there is ParseLenient(), which always produces a Value.
package param
