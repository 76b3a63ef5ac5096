package domain

// KeyPrefix namespaces every key this service writes to the store.
const KeyPrefix = "profmatch:"
