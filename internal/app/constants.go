package app

// MinPlayersToStartGame defines the minimum number of occupied seats required
// to start a game. Empty seats are filled with bots on start, so a single
// seated host is enough.
const MinPlayersToStartGame = 1
