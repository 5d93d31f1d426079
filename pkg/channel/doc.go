/*
Package channel implements the named byte channels the rig processes talk over.

Channels are POSIX FIFOs (or anonymous pipes in tests). Messages are newline framed:
a Writer appends the terminator, a Reader buffers whatever the kernel hands it and
only reports a channel as ready once a complete message is buffered.

Wait multiplexes several readers with a single poll(2) bounded by a timeout, which
is the only blocking primitive the controllers and the world simulator use.
*/
package channel
