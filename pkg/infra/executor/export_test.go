package executor

var NewTailBufferForTest = newTailBuffer
var NewLimitBufferForTest = newLimitBuffer
