package domain

// LabelInbox is the Gmail system label for inbox mail.
const LabelInbox = "INBOX"
