package objlit

const platformNewline = "\r\n"
