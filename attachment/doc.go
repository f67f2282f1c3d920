// Package attachment decides which attachments found in a message are kept and
// where they go. A Policy holds the allowed and denied MIME types. A Sink
// receives each kept attachment: the StorageSink writes it to a file with a
// unique name in a directory and the MemorySink keeps the content in the
// returned Attachment.
package attachment
