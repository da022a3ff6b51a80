package typescript

// sseUnit is the dependency-free parser for text/event-stream responses.
// Events yield their parsed "data" payload; "[DONE]" terminates the stream.
const sseUnit = `export interface ServerSentEvent {
  event: string;
  data: string;
  id?: string;
}

export async function* parseEventStream<T>(response: Response): AsyncGenerator<T> {
  const body = response.body;
  if (!body) {
    return;
  }
  const decoder = new TextDecoder();
  const reader = body.getReader();
  let buffer = "";
  try {
    while (true) {
      const { done, value } = await reader.read();
      if (done) {
        break;
      }
      buffer += decoder.decode(value, { stream: true });
      let boundary = buffer.indexOf("\n\n");
      while (boundary !== -1) {
        const chunk = buffer.slice(0, boundary);
        buffer = buffer.slice(boundary + 2);
        const event = parseEvent(chunk);
        if (event && event.data !== "") {
          if (event.data === "[DONE]") {
            return;
          }
          yield parseData<T>(event.data);
        }
        boundary = buffer.indexOf("\n\n");
      }
    }
  } finally {
    reader.releaseLock();
  }
}

function parseEvent(chunk: string): ServerSentEvent | undefined {
  const event: ServerSentEvent = { event: "message", data: "" };
  const dataLines: string[] = [];
  for (const line of chunk.split("\n")) {
    if (line === "" || line.startsWith(":")) {
      continue;
    }
    const colon = line.indexOf(":");
    const field = colon === -1 ? line : line.slice(0, colon);
    let value = colon === -1 ? "" : line.slice(colon + 1);
    if (value.startsWith(" ")) {
      value = value.slice(1);
    }
    switch (field) {
      case "event":
        event.event = value;
        break;
      case "data":
        dataLines.push(value);
        break;
      case "id":
        event.id = value;
        break;
    }
  }
  event.data = dataLines.join("\n");
  return dataLines.length > 0 || event.event !== "message" ? event : undefined;
}

function parseData<T>(data: string): T {
  try {
    return JSON.parse(data) as T;
  } catch {
    return data as unknown as T;
  }
}
`
