// Package message turns the lines of a raw email message into a tree of
// parts. The tree is made of two kinds of node, which both implement Part:
//
//   - *Multipart is a branch: a header and the ordered list of sub-parts found
//     between its boundary lines.
//
//   - *Opaque is a leaf: a header and the content of the part with the
//     Content-transfer-encoding already decoded.
//
// Parsing never fails because of bad input. A multipart without a boundary, a
// part nested too deeply, or a payload that cannot be fully decoded are all
// turned into leaves, marking them as degraded where information was lost:
//
//	msg, err := message.Parse(in)
//	if err != nil {
//	  panic(err) // only I/O errors get here
//	}
//
//	switch m := msg.(type) {
//	case *message.Opaque:
//	  fmt.Println(string(m.Content))
//	case *message.Multipart:
//	  fmt.Println(len(m.GetParts()), "parts")
//	}
package message
