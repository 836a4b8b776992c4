// Package pixoo drives the Divoom Pixoo 16x16 LED display over its serial
// (Bluetooth SPP) link.
//
// # Overview
//
// The Pixoo speaks a small framed binary protocol. This library converts
// still images and GIF animations into that protocol and writes the frames
// to a byte-stream transport. The device never acknowledges anything, so
// every operation is fire-and-forget with a short pacing delay between
// frames.
//
// # Protocol Architecture
//
//   - Every frame is [0x01][2B length LE][cmd][args...][2B checksum LE][0x02]
//   - The checksum is the 16-bit sum of every byte after the start byte
//   - Pictures are sent as palette + bit-packed index stream sub-frames (0xAA)
//   - Animations repeat sub-frames to emulate per-frame durations
//   - Large payloads are split into 200 byte chunks, each with a 3 byte header
//
// # Quick Start
//
//	dev := pixoo.NewDevice("rfcomm", "11:75:58:AA:BB:CC")
//	if err := dev.Connect(); err != nil {
//	    log.Fatal(err)
//	}
//	defer dev.Close()
//
//	dev.SetBrightness(60)
//	dev.DrawFile("heart.png")
//
//	report, err := dev.UploadGallery(0, []string{"a.gif", "b.png"})
//
// # Supported Features
//
//   - Static picture and animation drawing
//   - Gallery upload (3 galleries, 16 images each), switching and deletion
//   - Brightness, box mode and solid color commands
//   - RFCOMM socket, serial tty and TCP bridge transports
//
// # Thread Safety
//
// A Device serialises its writes, but the protocol has no notion of
// interleaved uploads. Use one Device from one goroutine at a time.
package pixoo
