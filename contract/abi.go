package contract

// BlogABI is the interface definition of the deployed blog contract.
// The method signatures must match the deployment exactly.
const BlogABI = `[
  {
    "type": "function",
    "name": "getAllPosts",
    "stateMutability": "view",
    "inputs": [],
    "outputs": [
      {
        "name": "",
        "type": "tuple[]",
        "internalType": "struct DecentralizedBlog.Post[]",
        "components": [
          {"name": "id", "type": "uint256", "internalType": "uint256"},
          {"name": "author", "type": "address", "internalType": "address"},
          {"name": "title", "type": "string", "internalType": "string"},
          {"name": "content", "type": "string", "internalType": "string"},
          {"name": "imageHash", "type": "string", "internalType": "string"},
          {"name": "tipAmount", "type": "uint256", "internalType": "uint256"},
          {"name": "timestamp", "type": "uint256", "internalType": "uint256"}
        ]
      }
    ]
  },
  {
    "type": "function",
    "name": "createPost",
    "stateMutability": "nonpayable",
    "inputs": [
      {"name": "title", "type": "string", "internalType": "string"},
      {"name": "content", "type": "string", "internalType": "string"},
      {"name": "imageHash", "type": "string", "internalType": "string"}
    ],
    "outputs": []
  },
  {
    "type": "function",
    "name": "tipPost",
    "stateMutability": "payable",
    "inputs": [
      {"name": "postId", "type": "uint256", "internalType": "uint256"}
    ],
    "outputs": []
  },
  {
    "type": "event",
    "name": "PostCreated",
    "anonymous": false,
    "inputs": [
      {"name": "id", "type": "uint256", "indexed": true, "internalType": "uint256"},
      {"name": "author", "type": "address", "indexed": true, "internalType": "address"},
      {"name": "title", "type": "string", "indexed": false, "internalType": "string"},
      {"name": "timestamp", "type": "uint256", "indexed": false, "internalType": "uint256"}
    ]
  },
  {
    "type": "event",
    "name": "PostTipped",
    "anonymous": false,
    "inputs": [
      {"name": "id", "type": "uint256", "indexed": true, "internalType": "uint256"},
      {"name": "tipper", "type": "address", "indexed": true, "internalType": "address"},
      {"name": "amount", "type": "uint256", "indexed": false, "internalType": "uint256"}
    ]
  }
]`
