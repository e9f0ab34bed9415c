package client

import "github.com/rubixchain/rubix-dapp/pkg/operation"

// ExecuteRequest is the smart contract execution request sent to the
// node. SmartContractData holds the stringified JSON payload.
type ExecuteRequest struct {
	Comment            string `json:"comment"`
	ExecutorAddr       string `json:"executorAddr"`
	QuorumType         int    `json:"quorumType"`
	SmartContractData  string `json:"smartContractData"`
	SmartContractToken string `json:"smartContractToken"`
}

type ExecuteResponse struct {
	Status  bool          `json:"status"`
	Message string        `json:"message,omitempty"`
	Result  ExecuteResult `json:"result"`
}

type ExecuteResult struct {
	Id string `json:"id"`
}

type SignatureRequest struct {
	Id       string `json:"id"`
	Mode     int    `json:"mode"`
	Password string `json:"password"`
}

type BasicResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message,omitempty"`
	Result  any    `json:"result,omitempty"`
}

type StatusResponse struct {
	Status  operation.NullableStatus `json:"status"`
	Message string                   `json:"message"`
}

type SmartContractDataRequest struct {
	Token  string `json:"token"`
	Latest bool   `json:"latest"`
}

type SmartContractDataReply struct {
	BasicResponse
	SCTDataReply []SCTData `json:"SCTDataReply"`
}

type SCTData struct {
	BlockNo           uint64 `json:"BlockNo"`
	BlockId           string `json:"BlockId"`
	SmartContractData string `json:"SmartContractData"`
}

// Latest returns the smart contract data of the last block in the reply.
func (r *SmartContractDataReply) Latest() (string, bool) {
	if len(r.SCTDataReply) == 0 {
		return "", false
	}
	return r.SCTDataReply[len(r.SCTDataReply)-1].SmartContractData, true
}

type NFTInfo struct {
	NFTId    string  `json:"nft"`
	Owner    string  `json:"owner_did"`
	Value    float64 `json:"nft_value"`
	Metadata string  `json:"nft_metadata,omitempty"`
	FileName string  `json:"nft_file_name,omitempty"`
}

type NFTList struct {
	BasicResponse
	NFTs []NFTInfo `json:"nfts"`
}

type FTInfo struct {
	CreatorDID string `json:"creator_did"`
	FTCount    int    `json:"ft_count"`
	FTName     string `json:"ft_name"`
}

type FTList struct {
	BasicResponse
	FTInfo []FTInfo `json:"ft_info"`
}
