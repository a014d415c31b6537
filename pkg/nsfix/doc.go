// Package nsfix repairs the XML namespace declarations of HWPX documents.
//
// An HWPX file is a ZIP container whose members are mostly XML parts
// (Contents/section0.xml, Contents/header.xml, META-INF/container.xml, ...)
// plus binary members such as images and the leading mimetype entry. Tools
// that patch HWPX files by raw string replacement on those members tend to
// leave namespace declarations duplicated, rebound or inconsistent. nsfix
// rewrites every XML part into one canonical namespace form and copies all
// other members untouched.
//
// # Quick Start
//
//	stats, err := nsfix.Transcode("report.hwpx", "report.fixed.hwpx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(stats) // parts=12 xml=9 fixed=3 failed=0
//
// # Pipeline
//
// The Transcoder visits the source entries once, in stored order, and writes
// exactly one destination entry per source entry under the same name:
//
//   - names ending in .xml (any case) are parsed and re-serialized by
//     package xml; the result is used when parsing succeeds
//   - XML entries that fail to parse are copied byte for byte and recorded
//     in Stats.Failures; this never aborts the run
//   - every other entry is copied byte for byte
//
// Entries stored uncompressed in the source stay stored unless
// Config.DeflateStored is set; everything else is deflated with
// github.com/klauspost/compress/flate.
//
// # Errors
//
// Transcode returns ErrNotFound or ErrInvalidContainer before the
// destination is created. Read and write failures are returned as
// *ContainerError and abort the run; the destination may then be left
// partially written. NewTranscoder returns ErrXMLUnavailable when the XML
// serializer fails its self-check.
//
// # Statistics
//
// Stats always satisfies
//
//	TotalParts >= XMLParts
//	XMLParts == XMLFixed + XMLFailed + XMLUnchanged()
//
// Running the transcoder over its own output reports XMLFixed == 0.
package nsfix
