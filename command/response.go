package command

type Response struct {
	BaseCommand
	CorrelationID int32
}

func (*Response) DataStructureType() byte { return TypeResponse }

type ExceptionResponse struct {
	Response
	Exception *BrokerError
}

func (*ExceptionResponse) DataStructureType() byte { return TypeExceptionResponse }

type DataResponse struct {
	Response
	Data DataStructure `openwire:"nested"`
}

func (*DataResponse) DataStructureType() byte { return TypeDataResponse }

type DataArrayResponse struct {
	Response
	Data []DataStructure
}

func (*DataArrayResponse) DataStructureType() byte { return TypeDataArrayResponse }

type IntegerResponse struct {
	Response
	Result int32
}

func (*IntegerResponse) DataStructureType() byte { return TypeIntegerResponse }
