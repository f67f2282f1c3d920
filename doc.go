// Package email decodes raw email messages into something a program can use:
// the header fields, the plain text body, the HTML body, and the attachments.
//
// Mail found in the wild is frequently broken. Headers are folded badly,
// boundaries are nested or missing, transfer encodings are mixed, and the
// declared charset is as often wrong as right. Legacy uuencoded files turn up
// in plain text bodies. This package does its best with all of it. Apart from
// a failure to read the input or asking for a required header that is not
// there, decoding never fails. Where something had to be thrown away, the
// result is marked as degraded and the details are logged at debug level.
//
// Start with Parse or ReadMessage, which split the message into its header and
// body lines:
//
//	msg, err := email.ReadMessage(os.Stdin)
//	if err != nil {
//	  panic(err)
//	}
//
//	subject, err := msg.GetHeader().GetSubject()
//
// Two views of the body are provided. The Plain and HTML methods scan the raw
// lines for the first body of that type. This is cheap and works even on
// messages too broken to parse as MIME.
//
// The Decode method parses the message into a tree of parts (see the message
// package), collects every inline text part into the body, and hands each
// attachment allowed by the attachment.Policy to an attachment.Sink. The
// Decoded result is the authoritative answer. The two views only differ on
// messages that contain more than one text part or are badly broken.
//
// The lower-level work is done in the sub-packages: message/header for the
// header, message for the part tree, message/content for classification,
// message/textbody for the raw line scanner, message/uuencode for legacy
// attachments, attachment for policies and sinks, attachment/sqlsink for
// keeping attachments in SQLite, and charset for conversion to UTF-8.
//
// The maildecode command in tools/maildecode exposes all of this from the
// shell, and its serve subcommand runs the same decoder as an HTTP service.
package email
