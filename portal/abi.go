package portal

// WavePortalABI is the interface description of the deployed WavePortal contract
const WavePortalABI = `[
  {"inputs":[],"stateMutability":"payable","type":"constructor"},
  {"anonymous":false,"inputs":[
    {"indexed":true,"internalType":"address","name":"from","type":"address"},
    {"indexed":false,"internalType":"uint256","name":"timestamp","type":"uint256"},
    {"indexed":false,"internalType":"string","name":"message","type":"string"}
  ],"name":"NewWave","type":"event"},
  {"inputs":[],"name":"getAllWaves","outputs":[
    {"components":[
      {"internalType":"address","name":"waver","type":"address"},
      {"internalType":"string","name":"message","type":"string"},
      {"internalType":"uint256","name":"timestamp","type":"uint256"}
    ],"internalType":"struct WavePortal.Wave[]","name":"","type":"tuple[]"}
  ],"stateMutability":"view","type":"function"},
  {"inputs":[],"name":"getTotalWaves","outputs":[
    {"internalType":"uint256","name":"","type":"uint256"}
  ],"stateMutability":"view","type":"function"},
  {"inputs":[{"internalType":"string","name":"_message","type":"string"}],
   "name":"wave","outputs":[],"stateMutability":"nonpayable","type":"function"}
]`

// Contract method and event names
const (
	methodGetAllWaves   = "getAllWaves"
	methodGetTotalWaves = "getTotalWaves"
	methodWave          = "wave"
	eventNewWave        = "NewWave"
)
